package list

import (
	"testing"
)

func TestArrayList_Add(t *testing.T) {
	list := &ArrayList[int]{}

	list.Add(10)
	list.Add(20)

	if list.Size() != 2 {
		t.Errorf("Expected size 2, got %d", list.Size())
	}
}

func TestArrayList_Dequeue(t *testing.T) {
	list := &ArrayList[int]{}

	list.Add(10)
	list.Add(20)
	list.Add(30)

	value, err := list.Dequeue()
	if err != nil || value != 10 {
		t.Errorf("Expected 10 at index 0, got %d", value)
	}

	if list.Size() != 2 {
		t.Errorf("Expected size 2, got %d", list.Size())
	}

	value, err = list.Get(0)
	if err != nil || value != 20 {
		t.Errorf("Expected 20 at index 0, got %d", value)
	}
}

func TestArrayList_Dequeue_ThrowError(t *testing.T) {
	list := &ArrayList[int]{}

	_, err := list.Dequeue()
	if err == nil {
		t.Errorf("Expected error, got nil")
	}
}

func TestArrayList_Insert(t *testing.T) {
	list := &ArrayList[int]{}

	list.Add(10)
	list.Add(20)

	err := list.Insert(1, 30)
	if err != nil {
		t.Errorf("Expected nil, got %v", err)
	}

	value, err := list.Get(1)
	if err != nil || value != 30 {
		t.Errorf("Expected 30 at index 1, got %d", value)
	}

	if list.Size() != 3 {
		t.Errorf("Expected size 3, got %d", list.Size())
	}
}

func TestArrayList_Insert_ThrowError(t *testing.T) {
	list := &ArrayList[int]{}

	list.Add(10)
	list.Add(20)

	err := list.Insert(4, 30)
	if err == nil {
		t.Errorf("Expected error, got nil")
	}
}

func TestArrayList_InsertOrdered(t *testing.T) {
	list := &ArrayList[int]{}
	less := func(a, b int) bool { return a < b }

	for _, n := range []int{40, 10, 30, 20, 50} {
		list.InsertOrdered(n, less)
	}

	expected := []int{10, 20, 30, 40, 50}
	for i, value := range list.GetAll() {
		if value != expected[i] {
			t.Errorf("Expected %d at index %d, got %d", expected[i], i, value)
		}
	}
}

func TestArrayList_Find(t *testing.T) {
	list := &ArrayList[int]{}

	list.Add(10)
	list.Add(20)
	list.Add(30)

	number, found := list.Find(func(number int) bool {
		return number == 20
	})

	if !found {
		t.Errorf("Expected true, got %v", found)
	}

	if number != 20 {
		t.Errorf("Expected to find 20, got %d", number)
	}

	_, found = list.Find(func(number int) bool { return number == 99 })
	if found {
		t.Errorf("Expected false for missing element")
	}
}

func TestArrayList_RemoveWhere(t *testing.T) {
	list := &ArrayList[int]{}

	list.Add(10)
	list.Add(20)
	list.Add(30)

	removed, ok := list.RemoveWhere(func(n int) bool { return n == 20 })
	if !ok || removed != 20 {
		t.Errorf("Expected to remove 20, got %d (%v)", removed, ok)
	}

	if list.Size() != 2 {
		t.Errorf("Expected size 2, got %d", list.Size())
	}

	value, _ := list.Get(1)
	if value != 30 {
		t.Errorf("Expected 30 at index 1, got %d", value)
	}

	if _, ok := list.RemoveWhere(func(n int) bool { return n == 20 }); ok {
		t.Errorf("Expected second removal to fail")
	}
}

func TestArrayList_GetAllIsACopy(t *testing.T) {
	list := &ArrayList[int]{}
	list.Add(1)

	items := list.GetAll()
	items[0] = 100

	value, _ := list.Get(0)
	if value != 1 {
		t.Errorf("Expected internal value 1, got %d", value)
	}
}

func TestArrayList_ForEach(t *testing.T) {
	list := &ArrayList[int]{}
	list.Add(1)
	list.Add(2)
	list.Add(3)

	sum := 0
	list.ForEach(func(n int) { sum += n })
	if sum != 6 {
		t.Errorf("Expected sum 6, got %d", sum)
	}
}
