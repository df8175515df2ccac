package services

import (
	"errors"

	memoriaModels "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/models"
	memoriaServices "github.com/sisoputnfrba/tp-2025-2c-Los-magiOS/memoria/services"
)

// pagesFor redondea size hacia arriba a páginas enteras.
func pagesFor(size uint64, pageSize int) int {
	return int((size + uint64(pageSize) - 1) / uint64(pageSize))
}

func pageAddress(page int, pageSize int) uint64 {
	return uint64(page) * uint64(pageSize)
}

// mapPages asigna y mapea count páginas consecutivas. Es todo o nada: si alguna falla se
// desmapean las que ya se habían instalado.
func mapPages(memory *memoriaServices.Memory, pid uint, first int, count int, flags memoriaModels.PTEFlags) error {
	for i := 0; i < count; i++ {
		if _, err := memory.MapPage(pid, first+i, flags); err != nil {
			if rollbackErr := unmapPages(memory, pid, first, i); rollbackErr != nil {
				return errors.Join(err, rollbackErr)
			}
			return err
		}
	}
	return nil
}

func unmapPages(memory *memoriaServices.Memory, pid uint, first int, count int) error {
	var errs []error
	for i := 0; i < count; i++ {
		if err := memory.UnmapPage(pid, first+i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
