package config

import "time"

const AppName = "modsed"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "modsed.log"
const DefaultExportFileName = "record.xml"

// Editor
const DefaultUndoCapacity = 20
const DefaultIndent = 2
const StartModeTree = "tree"
const StartModeText = "text"

// Remote
const DefaultRemoteTimeout = 30 * time.Second

// AutoSave
const DefaultAutoSaveInterval = time.Minute
