package config

import "os"

func IsDebug() bool {
	return os.Getenv("CHATLENS_DEBUG") == "1"
}
