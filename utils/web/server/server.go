package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// InitServer inicializa el servidor con el mux recibido, en caso de no poder levantarlo retorna un error
//
// Parámetros:
//   - port: puerto donde se iniciará el servidor
//   - handler: mux con los endpoints del módulo, si es nil se usa http.DefaultServeMux
//
// Ejemplo:
//
//	func main() {
//		mux := http.NewServeMux()
//		err := server.InitServer(models.KernelConfig.PortKernel, mux)
//		if err != nil {
//			panic(err)
//		}
//	}
func InitServer(port int, handler http.Handler) error {
	addr := ":" + strconv.Itoa(port)

	slog.Info("Servidor escuchando", "addr", addr)
	err := http.ListenAndServe(addr, handler)
	if err != nil {
		slog.Error("Error al escuchar en el puerto "+addr, "err", err)
	}
	return err
}

// SendJsonResponse retorna la respuesta del servidor en formato JSON
//
// Parámetros:
//   - writer: el http.ResponseWriter con el que se escribe la respuesta HTTP
//   - data: cualquier estructura de datos que querés enviar al cliente, se convierte automáticamente a JSON.
func SendJsonResponse(writer http.ResponseWriter, data any) {
	SendJsonResponseWithStatus(writer, http.StatusOK, data)
}

// SendJsonResponseWithStatus es igual a SendJsonResponse pero permite elegir el código HTTP.
func SendJsonResponseWithStatus(writer http.ResponseWriter, status int, data any) {
	response, err := json.Marshal(data)
	if err != nil {
		http.Error(writer, "Error al convertir datos a JSON", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	writer.Write(response)
}
