package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/models"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/services"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/utils/web/server"
)

// MemoryInspector expone la memoria física y las tablas de páginas en modo lectura.
type MemoryInspector interface {
	MemoryStatus() models.MemoryStatus
	PageTable(pid uint) ([]models.MappedPage, error)
}

type FrameMapper interface {
	FrameOwners() []int
}

func MemoryStatusHandler(memory MemoryInspector) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		server.SendJsonResponse(w, memory.MemoryStatus())
	}
}

// PageTableHandler devuelve las páginas mapeadas del proceso indicado en ?pid=N.
func PageTableHandler(memory MemoryInspector) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, err := strconv.ParseUint(r.URL.Query().Get("pid"), 10, 64)
		if err != nil {
			http.Error(w, "PID inválido", http.StatusBadRequest)
			return
		}

		pages, err := memory.PageTable(uint(pid))
		if errors.Is(err, models.ErrNoAddressSpace) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		slog.Debug(fmt.Sprintf("Se envían %d páginas del PID %d", len(pages), pid))
		server.SendJsonResponse(w, pages)
	}
}

// FrameMapHandler dibuja la ocupación de la memoria física como imagen PNG.
func FrameMapHandler(memory FrameMapper) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var buffer bytes.Buffer
		if err := services.RenderFrameMap(memory.FrameOwners(), &buffer); err != nil {
			slog.Error("No se pudo dibujar el mapa de frames", "err", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Write(buffer.Bytes())
	}
}
