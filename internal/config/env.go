package config

import "runtime"

// Unix variable names commonly used in configs and their Windows equivalents.
var windowsEnvAliases = map[string]string{
	"HOSTNAME": "COMPUTERNAME",
	"USER":     "USERNAME",
	"HOME":     "USERPROFILE",
}

func mapEnvKey(key string) string {
	if runtime.GOOS != "windows" {
		return key
	}
	if alias, ok := windowsEnvAliases[key]; ok {
		return alias
	}
	return key
}
