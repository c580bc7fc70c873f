package types

import "testing"

func TestAABBUnion(t *testing.T) {
	b := EmptyAABB()
	if !b.IsEmpty() {
		t.Fatal("expected new box to be empty")
	}

	b = b.Union(AABB{XYZ(-1, 0, 0), XYZ(1, 1, 1)})
	b = b.Union(AABB{XYZ(0, -2, 0), XYZ(0.5, 0.5, 3)})

	expMin := XYZ(-1, -2, 0)
	expMax := XYZ(1, 1, 3)
	if b.Min != expMin || b.Max != expMax {
		t.Fatalf("expected union to be %v-%v; got %v-%v", expMin, expMax, b.Min, b.Max)
	}

	if !b.Contains(AABB{XYZ(0, 0, 0), XYZ(1, 1, 1)}) {
		t.Fatal("expected union to contain unit box")
	}
	if b.Contains(AABB{XYZ(0, 0, 0), XYZ(1, 1, 4)}) {
		t.Fatal("expected union not to contain box exceeding max z")
	}
}

func TestAABBSurfaceArea(t *testing.T) {
	type spec struct {
		box     AABB
		expArea float32
	}
	specs := []spec{
		{EmptyAABB(), 0},
		{AABB{XYZ(0, 0, 0), XYZ(1, 1, 1)}, 6},
		{AABB{XYZ(0, 0, 0), XYZ(2, 1, 0)}, 4},
	}

	for index, s := range specs {
		if area := s.box.SurfaceArea(); area != s.expArea {
			t.Fatalf("[spec %d] expected area %f; got %f", index, s.expArea, area)
		}
	}
}

func TestMaxAxis(t *testing.T) {
	if axis := XYZ(1, 3, 2).MaxAxis(); axis != 1 {
		t.Fatalf("expected max axis 1; got %d", axis)
	}
	if axis := XYZ(1, 1, 1).MaxAxis(); axis != 0 {
		t.Fatalf("expected ties to select axis 0; got %d", axis)
	}
}
