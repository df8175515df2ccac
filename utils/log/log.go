package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const logDir = "./logs"

// InitLogger permite loguear tanto en consola como en archivo según el nivel que se le pase.
//
// Parámetros:
//   - logPath: la ubicación donde se va encontrar el archivo
//   - logLevel: nivel de logueo, este dato viene definido en el archivo de config.
//
// Ejemplo:
//
//	func main() {
//		log.InitLogger("./test.log", "INFO")
//	}
func InitLogger(logPath string, logLevel string) {
	if dir := filepath.Dir(logPath); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			panic(err)
		}
	}

	//Creamos el archivo "modulo".log en modo escritura, si ocurre algún error finalizamos con panic.
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
	if err != nil {
		panic(err)
	}

	// Usa io.MultiWriter para escribir a múltiples destinos: consola y archivo.
	SetupLogger(io.MultiWriter(os.Stdout, logFile), logLevel)

	slog.Debug("Se ha configurado correctamente el logger y el archivo de configuración. ")
}

// SetupLogger configura slog sobre cualquier writer. Los tests lo usan con un bytes.Buffer.
func SetupLogger(writer io.Writer, logLevel string) *slog.Logger {
	// Convertir el logLevel del config al tipo slog.Level.
	level, err := convertStringToLogLevel(logLevel)

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Escribimos en el log el warning que obtenemos por no setear el logLevel
	if err != nil {
		slog.Warn(err.Error())
	}
	return logger
}

// BuildLogPath arma la ruta del log dentro de ./logs a partir de un formato, ej: ("cpu_%s", "1") => ./logs/cpu_1.log
func BuildLogPath(format string, args ...any) (string, error) {
	name := fmt.Sprintf(format, args...)
	if name == "" {
		return "", fmt.Errorf("nombre de log vacío")
	}
	return filepath.Join(logDir, name+".log"), nil
}

// convertStringToLogLevel modifica dinámicamente el nivel de log que deseamos tener en el sistema.
func convertStringToLogLevel(levelStr string) (slog.Level, error) {
	switch levelStr {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("No existe %s, se coloca INFO por defecto. ", levelStr)
	}
}
