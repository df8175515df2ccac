package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/kernel/models"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/kernel/services"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/utils/web/server"
)

// ExecuteSyscallHandler es la entrada de traps: recibe la syscall de la tarea en ejecución
// y responde con el valor que quedaría en su registro de retorno.
func ExecuteSyscallHandler(kernel *services.Kernel) func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		var syscallRequest models.SyscallRequest
		err := json.NewDecoder(request.Body).Decode(&syscallRequest)
		if err != nil {
			http.Error(writer, "Error en la solicitud de syscall", http.StatusBadRequest)
			return
		}

		result, err := kernel.Dispatch(syscallRequest.PID, syscallRequest.ID, syscallRequest.Args)
		if errors.Is(err, models.ErrNotRunningTask) || errors.Is(err, models.ErrNoRunningTask) {
			slog.Debug("Syscall rechazada", "pid", syscallRequest.PID, "err", err)
			http.Error(writer, err.Error(), http.StatusConflict)
			return
		}
		if err != nil {
			http.Error(writer, err.Error(), http.StatusInternalServerError)
			return
		}

		server.SendJsonResponse(writer, models.SyscallResponse{Result: result})
	}
}

// ListTasksHandler devuelve el estado de todas las tareas creadas.
func ListTasksHandler(kernel *services.Kernel) func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		server.SendJsonResponse(writer, kernel.Tasks())
	}
}

func SpawnTaskHandler(kernel *services.Kernel) func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		var spawnRequest models.SpawnRequest
		err := json.NewDecoder(request.Body).Decode(&spawnRequest)
		if err != nil || spawnRequest.Name == "" {
			http.Error(writer, "Error decodificando la tarea", http.StatusBadRequest)
			return
		}

		pid, err := kernel.Spawn(spawnRequest.Name, spawnRequest.ImageSize)
		if errors.Is(err, models.ErrInvalidLayout) {
			http.Error(writer, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			slog.Warn(fmt.Sprintf("No se pudo crear la tarea %s", spawnRequest.Name), "err", err)
			http.Error(writer, err.Error(), http.StatusInsufficientStorage)
			return
		}

		slog.Info(fmt.Sprintf("## (%d) Se crea la tarea %s", pid, spawnRequest.Name))
		server.SendJsonResponse(writer, models.SpawnResponse{PID: pid})
	}
}
