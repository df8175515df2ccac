package main

import (
	"fmt"
	"log/slog"
	"net/http"

	kernelHandler "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/kernel/handlers"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/kernel/models"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/kernel/services"
	memoryHandler "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/handlers"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/utils/config"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/utils/log"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/utils/web/handlers"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/utils/web/server"
)

const (
	ConfigPath = "kernel/configs/kernel.json"
	LogPath    = "./logs/kernel.log"
)

func main() {
	config.InitConfig(ConfigPath, &models.KernelConfig)
	log.InitLogger(LogPath, models.KernelConfig.LogLevel)

	slog.Debug(fmt.Sprintf("Port Kernel: %d", models.KernelConfig.PortKernel))

	kernel, err := services.NewKernel(*models.KernelConfig, services.NewMonotonicClock())
	if err != nil {
		slog.Error("Error al iniciar el kernel", "err", err)
		panic(err)
	}
	if err := kernel.Boot(models.KernelConfig.BootTasks); err != nil {
		slog.Error("Error al crear las tareas iniciales", "err", err)
		panic(err)
	}

	/* ----------> ENDPOINTS <----------*/
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", handlers.HandshakeHandler("Bienvenido al módulo de Kernel"))
	mux.HandleFunc("GET /kernel", handlers.HandshakeHandler("Kernel en funcionamiento 🚀"))
	mux.HandleFunc("POST /kernel/syscall", kernelHandler.ExecuteSyscallHandler(kernel))
	mux.HandleFunc("GET /kernel/tareas", kernelHandler.ListTasksHandler(kernel))
	mux.HandleFunc("POST /kernel/tareas", kernelHandler.SpawnTaskHandler(kernel))
	mux.HandleFunc("GET /memoria/estado", memoryHandler.MemoryStatusHandler(kernel))
	mux.HandleFunc("GET /memoria/tabla", memoryHandler.PageTableHandler(kernel))
	mux.HandleFunc("GET /memoria/mapa", memoryHandler.FrameMapHandler(kernel))

	err = server.InitServer(models.KernelConfig.PortKernel, mux)
	if err != nil {
		slog.Error(fmt.Sprintf("error initializing server: %v", err))
		panic(err)
	}
}
