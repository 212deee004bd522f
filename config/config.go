package config

import (
	"os"
	"strings"
)

var (
	BIND_ADDRESS = "0.0.0.0:8080"
	MYSQL_DSN    = ""            // MySQL will be used if this is set
	SQLITE_FILE  = "memories.db" // SQLite will be used if MYSQL_DSN is not configured
	DEBUG_MODE   = true

	NATS_URL       = "" // Event bus disabled if empty
	SEARCH_API_URL = "" // Base URL of the photo search service; search endpoint is disabled if empty

	STORAGE_DIR = "" // Local image storage; S3 is used if S3_BUCKET is set instead
	S3_BUCKET   = ""
	S3_REGION   = "us-east-1"
	S3_ENDPOINT = "" // Optional, for S3-compatible stores

	SESSION_KEY = "this is a long key" // TODO: require this via env in production
)

func init() {
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("NATS_URL", &NATS_URL)
	readEnvString("SEARCH_API_URL", &SEARCH_API_URL)
	readEnvString("STORAGE_DIR", &STORAGE_DIR)
	readEnvString("S3_BUCKET", &S3_BUCKET)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvString("S3_ENDPOINT", &S3_ENDPOINT)
	readEnvString("SESSION_KEY", &SESSION_KEY)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}
