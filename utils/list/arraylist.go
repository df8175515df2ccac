package list

import (
	"fmt"
	"sync"
)

// List define las operaciones que usan las colas del kernel y los conjuntos de regiones de memoria.
type List[T any] interface {
	Add(item T)                                     // Añadir un elemento al final de la lista
	Dequeue() (T, error)                            // Eliminar y devolver el primer elemento de la lista
	Find(predicate func(T) bool) (T, bool)          // Buscar un elemento de la lista dado un predicado
	ForEach(callback func(T))                       // Aplicar una función a cada elemento de la lista
	Get(index int) (T, error)                       // Obtener un elemento a partir de un índice dado
	GetAll() []T                                    // Copia de todos los elementos de la lista
	Insert(index int, item T) error                 // Insertar un elemento en el índice dado
	InsertOrdered(item T, less func(a, b T) bool)   // Insertar manteniendo el orden dado por less
	RemoveWhere(match func(T) bool) (T, bool)       // Eliminar el primer elemento que cumpla el predicado
	Size() int                                      // Retornar el tamaño de la lista
}

// ArrayList implements List
type ArrayList[T any] struct {
	mu    sync.RWMutex
	items []T
}

// Add inserta un elemento al final de la lista.
//
// Ejemplo:
//
//	func main() {
//		list := &ArrayList[int]{}
//		list.Add(10)
//		list.Add(20)
//	}
func (list *ArrayList[T]) Add(item T) {
	list.mu.Lock() // Bloqueo exclusivo para evitar cambios simultáneos
	defer list.mu.Unlock()

	list.items = append(list.items, item)
}

// Dequeue elimina y devuelve el primer elemento de la cola.
// En caso de que la lista se encuentre vacía retorna el valor "cero" del tipo T y un error.
func (list *ArrayList[T]) Dequeue() (T, error) {
	list.mu.Lock()
	defer list.mu.Unlock()

	if len(list.items) == 0 {
		var zero T // Devuelve el valor "cero" del tipo T
		return zero, fmt.Errorf("list is empty")
	}
	valor := list.items[0]
	list.items = list.items[1:]
	return valor, nil
}

// Find permite buscar un elemento de la lista dado un predicado.
//
// Ejemplo:
//
//	func main() {
//		list := &ArrayList[int]{}
//		list.Add(10)
//		list.Add(20)
//
//		number, found := list.Find(func(number int) bool {
//			return number == 20
//		})
//	}
func (list *ArrayList[T]) Find(predicate func(T) bool) (T, bool) {
	list.mu.RLock() //Bloqueo de solo lectura: permite otras lecturas concurrentes
	defer list.mu.RUnlock()

	for _, item := range list.items {
		if predicate(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// ForEach a cada elemento de la lista se va a aplicar la función que le pase.
// El callback no puede modificar la lista.
func (list *ArrayList[T]) ForEach(callback func(T)) {
	list.mu.RLock()
	defer list.mu.RUnlock()

	for _, item := range list.items {
		callback(item)
	}
}

// Get devuelve el elemento en el índice proporcionado.
func (list *ArrayList[T]) Get(index int) (T, error) {
	list.mu.RLock()
	defer list.mu.RUnlock()

	// Validar si el índice está dentro del rango
	if index < 0 || index >= len(list.items) {
		var zero T
		return zero, fmt.Errorf("index out of range: %d", index)
	}
	return list.items[index], nil
}

// GetAll retorna una copia de todos los elementos que se encuentran en la lista
func (list *ArrayList[T]) GetAll() []T {
	list.mu.RLock()
	defer list.mu.RUnlock()

	// Crear una copia del slice para evitar que modificaciones externas afecten la lista interna
	itemsCopy := make([]T, len(list.items))
	copy(itemsCopy, list.items)
	return itemsCopy
}

// Insert inserta un elemento en la lista en el índice proporcionado.
//
// Ejemplo:
//
//	func main() {
//		list := &ArrayList[int]{}
//		list.Add(10)
//		list.Add(30)
//
//		_ := list.Insert(1, 100) [10, 100, 30]
//	}
func (list *ArrayList[T]) Insert(index int, item T) error {
	list.mu.Lock()
	defer list.mu.Unlock()

	if index < 0 || index > len(list.items) {
		return fmt.Errorf("index out of range: %d", index)
	}
	list.insertAt(index, item)
	return nil
}

// InsertOrdered inserta el elemento antes del primero que no sea menor que él.
// Si la lista ya estaba ordenada por less, sigue ordenada.
func (list *ArrayList[T]) InsertOrdered(item T, less func(a, b T) bool) {
	list.mu.Lock()
	defer list.mu.Unlock()

	index := len(list.items)
	for i, current := range list.items {
		if less(item, current) {
			index = i
			break
		}
	}
	list.insertAt(index, item)
}

func (list *ArrayList[T]) insertAt(index int, item T) {
	var zero T
	list.items = append(list.items, zero)
	copy(list.items[index+1:], list.items[index:])
	list.items[index] = item
}

// RemoveWhere elimina el primer elemento que cumple el predicado y lo devuelve.
func (list *ArrayList[T]) RemoveWhere(match func(T) bool) (T, bool) {
	list.mu.Lock()
	defer list.mu.Unlock()

	for i, item := range list.items {
		if match(item) {
			list.items = append(list.items[:i], list.items[i+1:]...)
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Size devuelve el tamaño de la lista.
func (list *ArrayList[T]) Size() int {
	list.mu.RLock()
	defer list.mu.RUnlock()

	return len(list.items)
}
