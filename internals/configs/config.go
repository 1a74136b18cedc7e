package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Persistence backend for student writes. Exactly one is active per
// deployment; running both at once leaves no single source of truth.
const (
	StudentBackendLocal    = "local"
	StudentBackendSupabase = "supabase"
)

var (
	JWTSecret          string
	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseAnonKey    string
	StudentBackend     string
	StudentPageSize    int
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded!")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	SupabaseURL = GetEnv("SUPABASE_PROJECT_URL")
	SupabaseServiceKey = GetEnv("SUPABASE_SERVICE_ROLE_KEY")
	SupabaseAnonKey = GetEnv("SUPABASE_ANON_KEY")

	StudentBackend = GetEnv("STUDENT_BACKEND", StudentBackendLocal)
	if StudentBackend != StudentBackendLocal && StudentBackend != StudentBackendSupabase {
		log.Printf("⚠️ STUDENT_BACKEND=%q invalid, falling back to %q", StudentBackend, StudentBackendLocal)
		StudentBackend = StudentBackendLocal
	}

	StudentPageSize = GetEnvInt("STUDENT_PAGE_SIZE", 20)

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET not set!")
	}
	if StudentBackend == StudentBackendSupabase && (SupabaseURL == "" || SupabaseServiceKey == "") {
		log.Println("❌ STUDENT_BACKEND=supabase but SUPABASE_PROJECT_URL / SUPABASE_SERVICE_ROLE_KEY not set!")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
