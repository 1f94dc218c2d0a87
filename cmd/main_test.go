package main

import (
	"bytes"
	"flag"
	"os"
	"testing"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// resetEnv clears env vars used by parseConfig
func resetEnv() {
	os.Clearenv()
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	configPath := parseFlags()
	expected := "config.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	configPath := parseFlags()
	expected := "myconfig.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	output := buf.String()
	os.Stdout = oldStdout

	if !contains(output, "v1.0.0") ||
		!contains(output, "abcd1234") ||
		!contains(output, "2025-09-26") {
		t.Errorf("printBuildInfo output unexpected:\n%s", output)
	}
}

// Helper function to check substring
func contains(s, substr string) bool {
	return bytes.Contains([]byte(s), []byte(substr))
}

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv()

	appHost, appPort, logLevel,
		mongoURI, mongoDB,
		redisAddr, redisPassword, redisDB, statsCacheTTLSecond,
		kafkaBroker, kafkaTopic,
		jwtSecretKey, jwtExpSecond, jwtCookieExpiresDays,
		err := parseConfig("nonexistent.env")

	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}

	// Application
	if appHost != "localhost" || appPort != "8080" || logLevel != "info" {
		t.Errorf("unexpected app config: %v/%v/%v", appHost, appPort, logLevel)
	}

	// MongoDB
	if mongoURI != "mongodb://localhost:27017" || mongoDB != "huma_tour" {
		t.Errorf("unexpected mongo config: %v/%v", mongoURI, mongoDB)
	}

	// Redis
	if redisAddr != "localhost:6379" || redisPassword != "" || redisDB != 0 || statsCacheTTLSecond != 300 {
		t.Errorf("unexpected redis config")
	}

	// Kafka is off by default
	if kafkaBroker != "" || kafkaTopic != "auth-events" {
		t.Errorf("unexpected kafka config: %v/%v", kafkaBroker, kafkaTopic)
	}

	// JWT
	if jwtSecretKey != "my_super_secret_key" || jwtExpSecond != 86400 || jwtCookieExpiresDays != 90 {
		t.Errorf("unexpected jwt config")
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	resetEnv()
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MONGO_DB", "tours_test")
	t.Setenv("KAFKA_BROKER", "localhost:9092")
	t.Setenv("JWT_COOKIE_EXPIRES_DAYS", "7")

	_, appPort, _,
		_, mongoDB,
		_, _, _, _,
		kafkaBroker, _,
		_, _, jwtCookieExpiresDays,
		err := parseConfig("nonexistent.env")

	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}
	if appPort != "9090" {
		t.Errorf("expected port 9090, got %s", appPort)
	}
	if mongoDB != "tours_test" {
		t.Errorf("expected db tours_test, got %s", mongoDB)
	}
	if kafkaBroker != "localhost:9092" {
		t.Errorf("expected broker localhost:9092, got %s", kafkaBroker)
	}
	if jwtCookieExpiresDays != 7 {
		t.Errorf("expected 7 cookie days, got %d", jwtCookieExpiresDays)
	}
}

func TestParseConfig_BadNumber(t *testing.T) {
	resetEnv()
	t.Setenv("JWT_EXP_SECOND", "not-a-number")

	_, _, _, _, _, _, _, _, _, _, _, _, _, _, err := parseConfig("nonexistent.env")
	if err == nil {
		t.Fatal("expected error for non-numeric JWT_EXP_SECOND")
	}
}
