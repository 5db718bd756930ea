package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Backend BackendConfig
	JWT     JWTConfig
	DB      DBConfig
	Token   TokenConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// HTTPConfig configuración del servidor HTTP (BFF).
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendConfig describe la API REST de MyDeepTech que consume el dashboard.
// Las rutas son plantillas relativas a BaseURL; ":userId" se sustituye en cada llamada.
type BackendConfig struct {
	BaseURL            string
	Timeout            time.Duration
	UsersPath          string // GET  listado paginado de usuarios
	UserPath           string // GET  detalle de usuario (:userId)
	RolesPath          string // GET  catálogo de roles
	RoleStatisticsPath string // GET  conteo de usuarios por rol
	UserRolePath       string // PUT  cambio de rol (:userId)
	StatsSampleSize    int    // tamaño de la muestra del conteo aproximado (100–200)
}

// JWTConfig configuración de verificación JWT del BFF.
// Secret vacío = el BFF solo reenvía el token al backend sin validarlo.
type JWTConfig struct {
	Secret string
}

// DBConfig configuración de PostgreSQL (opcional: sin host ni DATABASE_URL se usa el store en memoria).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// Enabled indica si hay una base de datos configurada.
func (c DBConfig) Enabled() bool {
	return c.DatabaseURL != "" || c.Host != ""
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// TokenConfig ubicación del token persistido localmente (consola rolectl).
type TokenConfig struct {
	Path string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BACKEND_BASE_URL, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo .env en el directorio actual
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "mydeeptech-dashboard"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Backend: BackendConfig{
			BaseURL:            strings.TrimRight(getString(v, "BACKEND_BASE_URL", "http://localhost:5000/api"), "/"),
			Timeout:            time.Duration(getInt(v, "BACKEND_TIMEOUT_SECONDS", 15)) * time.Second,
			UsersPath:          getString(v, "BACKEND_USERS_PATH", "/users"),
			UserPath:           getString(v, "BACKEND_USER_PATH", "/users/:userId"),
			RolesPath:          getString(v, "BACKEND_ROLES_PATH", "/admin/roles"),
			RoleStatisticsPath: getString(v, "BACKEND_ROLE_STATISTICS_PATH", "/admin/role-statistics"),
			UserRolePath:       getString(v, "BACKEND_USER_ROLE_PATH", "/admin/users/:userId/role"),
			StatsSampleSize:    clampSampleSize(getInt(v, "BACKEND_STATS_SAMPLE_SIZE", 100)),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", ""),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "mydeeptech_dashboard"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Token: TokenConfig{
			Path: getString(v, "TOKEN_PATH", ".mydeeptech/token.json"),
		},
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("config: BACKEND_BASE_URL es obligatorio")
	}
	if _, err := url.ParseRequestURI(cfg.Backend.BaseURL); err != nil {
		return nil, fmt.Errorf("config: BACKEND_BASE_URL inválido: %w", err)
	}
	return cfg, nil
}

// clampSampleSize limita la muestra del conteo aproximado al rango 100–200.
func clampSampleSize(n int) int {
	switch {
	case n < 100:
		return 100
	case n > 200:
		return 200
	default:
		return n
	}
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
