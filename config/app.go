package config

type App struct {
	Port        string `env:"APP_PORT" default:"5000"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	UploadDir   string `env:"UPLOAD_DIR" default:"uploads"`
	CORSOrigin  string `env:"CORS_ORIGIN" default:"http://localhost:3000"`
	Env         string `env:"APP_ENV" default:"dev"`
}
