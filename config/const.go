package config

import "strings"

// AppVersion is the version of the tool, injected at build time.
var AppVersion = "dev"

// AppName is the name of the tool.
const AppName = "Squarify"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// LockFileName is created in the batch root while a run is in progress.
var LockFileName = "." + strings.ToLower(AppName) + ".lock"

// Defaults for a batch run.
const (
	DefaultFirstFolder = 1
	DefaultLastFolder  = 43
	DefaultMargin      = 40
	DefaultExtension   = ".webp"
	DefaultWorkers     = 1
	DefaultQuality     = 90
)
