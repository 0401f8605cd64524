package sparse

import "testing"

func TestMatrixSetAndAdd(t *testing.T) {
	M := NewIntMatrix(10, 10, DefaultNullValue)
	M.Set(2, 3, 4711)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("Expected M(2,3) to be 4711, is %d", v)
	}
	M.Add(2, 3, 123)
	if a, b := M.Values(2, 3); a != 4711 || b != 123 {
		t.Errorf("Expected M(2,3) to be (4711,123), is (%d,%d)", a, b)
	}
	if cnt := M.ValueCount(); cnt != 1 {
		t.Errorf("Expected value count to be 1, is %d", cnt)
	}
	if v := M.Value(9, 9); v != M.NullValue() {
		t.Errorf("Expected M(9,9) to be null-value, is %d", v)
	}
	M.Set(2, 3, 1)
	if a, b := M.Values(2, 3); a != 1 || b != M.NullValue() {
		t.Errorf("Expected Set to overwrite both values, is (%d,%d)", a, b)
	}
}

func TestMatrixOrder(t *testing.T) {
	M := NewIntMatrix(5, 5, -1)
	cells := [][3]int{{4, 4, 1}, {0, 1, 2}, {2, 0, 3}, {2, 4, 4}, {2, 2, 5}, {0, 0, 6}}
	for _, c := range cells {
		M.Set(c[0], c[1], int32(c[2]))
	}
	for _, c := range cells {
		if v := M.Value(c[0], c[1]); v != int32(c[2]) {
			t.Errorf("Expected M(%d,%d) to be %d, is %d", c[0], c[1], c[2], v)
		}
	}
	var cols []int
	M.Row(2, func(j int, a, b int32) {
		cols = append(cols, j)
	})
	if len(cols) != 3 || cols[0] != 0 || cols[1] != 2 || cols[2] != 4 {
		t.Errorf("Expected row 2 to have columns [0 2 4], is %v", cols)
	}
	M.Row(3, func(j int, a, b int32) {
		t.Errorf("Expected row 3 to be empty, found column %d", j)
	})
}

func TestMatrixOutOfRange(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for index out of range")
		}
	}()
	M := NewIntMatrix(2, 2, -1)
	M.Set(2, 0, 1)
}
