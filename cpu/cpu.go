package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	tty "github.com/mattn/go-tty"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/cpu/models"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/cpu/services"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/utils/config"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/utils/log"
)

const (
	ConfigPath = "cpu/configs/cpu.json"
	// Con "-" como script las instrucciones se leen de la terminal
	InteractiveScript = "-"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Faltan parámetros. Ejemplo: ./bin/cpu [script|-] [tamanio_imagen]")
		os.Exit(1)
	}
	scriptPath := os.Args[1]
	imageSize, err := strconv.Atoi(os.Args[2])
	if err != nil {
		fmt.Println("Tamaño de imagen inválido:", os.Args[2])
		os.Exit(1)
	}

	config.InitConfig(ConfigPath, &models.CpuConfig)

	name := filepath.Base(scriptPath)
	if scriptPath == InteractiveScript {
		name = "consola"
	}
	logPath, err := log.BuildLogPath("cpu_%s", name)
	if err != nil {
		slog.Error("No se pudo construir el log path", "err", err)
		return
	}
	log.InitLogger(logPath, models.CpuConfig.LogLevel)

	syscallClient := services.NewSyscallClient(models.CpuConfig)
	if scriptPath == InteractiveScript {
		runInteractive(syscallClient, name, imageSize)
		return
	}

	file, err := os.Open(scriptPath)
	if err != nil {
		slog.Error(fmt.Sprintf("No se pudo abrir el script %s", scriptPath), "err", err)
		os.Exit(1)
	}
	defer file.Close()

	instructions, err := services.ParseScript(file)
	if err != nil {
		slog.Error("Script inválido", "err", err)
		os.Exit(1)
	}

	pid, err := syscallClient.Spawn(name, imageSize)
	if err != nil {
		slog.Error("No se pudo crear la tarea", "err", err)
		os.Exit(1)
	}
	slog.Info(fmt.Sprintf("## PID: %d - Se ejecuta %s (%d instrucciones)", pid, name, len(instructions)))

	if _, err := syscallClient.RunScript(pid, instructions); err != nil {
		slog.Error(fmt.Sprintf("## PID: %d - Ejecución interrumpida", pid), "err", err)
		os.Exit(1)
	}
}

func runInteractive(syscallClient *services.SyscallClient, name string, imageSize int) {
	terminal, err := tty.Open()
	if err != nil {
		slog.Error("No se pudo abrir la terminal", "err", err)
		os.Exit(1)
	}
	defer terminal.Close()

	pid, err := syscallClient.Spawn(name, imageSize)
	if err != nil {
		slog.Error("No se pudo crear la tarea", "err", err)
		return
	}
	if err := syscallClient.RunInteractive(pid, terminal, terminal.Output()); err != nil {
		slog.Error(fmt.Sprintf("## PID: %d - Sesión interrumpida", pid), "err", err)
	}
}
