// Package config loads process configuration from environment variables,
// mirroring the editor-supplied options of a language-server workspace
// configuration plus the addresses of the optional enrichment services.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	Extractor ExtractorConfig
	Store     StoreConfig
	Neo4j     Neo4jConfig
	Valkey    ValkeyConfig
	MinIO     MinIOConfig
	HTTP      HTTPConfig
	MCP       MCPConfig
}

// ExtractorConfig mirrors the editor's backend.veribleInstallPath /
// indexFilePath / fileListPath / usePrebuiltIndex configuration options.
type ExtractorConfig struct {
	VeribleInstallPath string
	WorkspaceRoot      string
	IndexFilePath      string
	FileListPath       string
	UsePrebuiltIndex   bool
}

type StoreConfig struct {
	// Path is a filesystem path, or "" / ":memory:" for an in-memory store.
	Path string
}

type Neo4jConfig struct {
	Enabled  bool
	URI      string
	User     string
	Password string
}

type ValkeyConfig struct {
	Enabled bool
	Addr    string
}

type MinIOConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type HTTPConfig struct {
	Host string
	Port int
}

// MCPConfig configures the separate MCP tool-server process (cmd/mcp),
// which shares the same store file as cmd/indexserver rather than talking
// to it over HTTP.
type MCPConfig struct {
	Addr string
}

func Load() (*Config, error) {
	cfg := &Config{
		Extractor: ExtractorConfig{
			VeribleInstallPath: getEnv("VERIBLE_INSTALL_PATH", ""),
			WorkspaceRoot:      getEnv("WORKSPACE_ROOT", "."),
			IndexFilePath:      getEnv("INDEX_FILE_PATH", ""),
			FileListPath:       getEnv("FILE_LIST_PATH", ""),
			UsePrebuiltIndex:   getEnvBool("USE_PREBUILT_INDEX", false),
		},
		Store: StoreConfig{
			Path: getEnv("STORE_PATH", ":memory:"),
		},
		Neo4j: Neo4jConfig{
			Enabled:  getEnvBool("NEO4J_ENABLED", false),
			URI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
			User:     getEnv("NEO4J_USER", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", ""),
		},
		Valkey: ValkeyConfig{
			Enabled: getEnvBool("VALKEY_ENABLED", false),
			Addr:    getEnv("VALKEY_ADDR", "localhost:6379"),
		},
		MinIO: MinIOConfig{
			Enabled:   getEnvBool("MINIO_ENABLED", false),
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "diplomat-artifacts"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		HTTP: HTTPConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnvInt("HTTP_PORT", 8090),
		},
		MCP: MCPConfig{
			Addr: getEnv("MCP_ADDR", "0.0.0.0:8091"),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
