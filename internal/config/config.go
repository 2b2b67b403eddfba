package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Zona horaria del servicio. El corte de pedidos SIEMPRE se evalúa en
	// esta zona, nunca en la del host (evita drift entre despliegues).
	Timezone    string
	OrderCutoff string // "HH:MM:SS", hora límite para crear/modificar pedidos

	DBTimeout time.Duration // tope por operación contra la base
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=almuerzos port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		Timezone:    getEnv("TIMEZONE", "America/Bogota"),
		OrderCutoff: getEnv("ORDER_CUTOFF", "17:00:00"),
		DBTimeout:   time.Duration(getEnvInt("DB_TIMEOUT_SECONDS", 5)) * time.Second,
	}

	// Controles de arranque
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET no está definido. Es obligatorio para producción.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET debe tener al menos 32 caracteres.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=almuerzos port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN usa el valor por defecto; define tu propia conexión Postgres en producción.")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		log.Fatalf("[FATAL] TIMEZONE inválida %q: %v", cfg.Timezone, err)
	}
	if _, err := time.Parse("15:04:05", cfg.OrderCutoff); err != nil {
		log.Fatalf("[FATAL] ORDER_CUTOFF inválido %q, use HH:MM:SS: %v", cfg.OrderCutoff, err)
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Printf("[WARN] %s inválido %q, se usa %d", key, v, def)
	}
	return def
}
