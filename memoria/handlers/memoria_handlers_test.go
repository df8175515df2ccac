package handlers

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/models"
	"github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/services"
)

type memoryInspector struct {
	memory *services.Memory
}

func (inspector memoryInspector) MemoryStatus() models.MemoryStatus {
	return inspector.memory.Status()
}

func (inspector memoryInspector) PageTable(pid uint) ([]models.MappedPage, error) {
	return inspector.memory.Pages(pid)
}

func (inspector memoryInspector) FrameOwners() []int {
	return inspector.memory.FrameOwners()
}

func newInspector(t *testing.T) memoryInspector {
	t.Helper()
	memory, err := services.NewMemory(models.Config{MemorySize: 8 * 64, PageSize: 64, EntriesPerPage: 8, NumberOfLevels: 2})
	if err != nil {
		t.Fatalf("Expected no error creating memory, got: %v", err)
	}
	if err := memory.CreateAddressSpace(1); err != nil {
		t.Fatalf("Expected no error creating address space, got: %v", err)
	}
	if _, err := memory.MapPage(1, 3, models.PTERead|models.PTEUser); err != nil {
		t.Fatalf("Expected no error mapping page, got: %v", err)
	}
	return memoryInspector{memory: memory}
}

func TestMemoryStatusHandler(t *testing.T) {
	recorder := httptest.NewRecorder()
	MemoryStatusHandler(newInspector(t))(recorder, httptest.NewRequest(http.MethodGet, "/memoria/estado", nil))

	var status models.MemoryStatus
	if err := json.NewDecoder(recorder.Body).Decode(&status); err != nil {
		t.Fatalf("Expected JSON body, got error: %v", err)
	}
	if status.TotalFrame != 8 || status.FreeFrames != 7 || status.Processes != 1 {
		t.Errorf("Unexpected status: %+v", status)
	}
}

func TestPageTableHandler(t *testing.T) {
	inspector := newInspector(t)
	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"existing process", "?pid=1", http.StatusOK},
		{"unknown process", "?pid=9", http.StatusNotFound},
		{"invalid pid", "?pid=abc", http.StatusBadRequest},
	}

	for _, test := range tests {
		recorder := httptest.NewRecorder()
		PageTableHandler(inspector)(recorder, httptest.NewRequest(http.MethodGet, "/memoria/tabla"+test.query, nil))
		if recorder.Code != test.status {
			t.Errorf("%s: expected status %d, got %d", test.name, test.status, recorder.Code)
		}
	}

	recorder := httptest.NewRecorder()
	PageTableHandler(inspector)(recorder, httptest.NewRequest(http.MethodGet, "/memoria/tabla?pid=1", nil))
	var pages []models.MappedPage
	if err := json.NewDecoder(recorder.Body).Decode(&pages); err != nil {
		t.Fatalf("Expected JSON body, got error: %v", err)
	}
	if len(pages) != 1 || pages[0].PageNumber != 3 || pages[0].Perms != "VR--U" {
		t.Errorf("Unexpected pages: %+v", pages)
	}
}

func TestFrameMapHandler(t *testing.T) {
	recorder := httptest.NewRecorder()
	FrameMapHandler(newInspector(t))(recorder, httptest.NewRequest(http.MethodGet, "/memoria/mapa", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}
	if contentType := recorder.Header().Get("Content-Type"); contentType != "image/png" {
		t.Errorf("Expected image/png, got %s", contentType)
	}
	if _, err := png.Decode(recorder.Body); err != nil {
		t.Errorf("Expected a valid PNG, got: %v", err)
	}
}
