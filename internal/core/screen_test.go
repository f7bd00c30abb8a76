package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X', ColorRed)
	cell := s.GetCell(5, 5)
	if cell.Rune != 'X' || cell.Color != ColorRed {
		t.Errorf("GetCell(5, 5) = %+v, expected red 'X'", cell)
	}

	// Out of bounds writes are ignored
	s.Set(-1, 0, 'A', ColorDefault)
	s.Set(100, 0, 'A', ColorDefault)
	s.Set(0, -1, 'A', ColorDefault)
	s.Set(0, 100, 'A', ColorDefault)

	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenDrawTextClips(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(18, 0, "Hello", ColorDefault)

	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("Text should be clipped at right boundary")
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextCentered(2, "Hi", ColorDefault)

	x := (20 - 2) / 2
	if s.Get(x, 2) != 'H' || s.Get(x+1, 2) != 'i' {
		t.Errorf("DrawTextCentered failed, text not at expected position")
	}
}

func TestScreenProject(t *testing.T) {
	s := NewScreen(80, 24)

	tests := []struct {
		name         string
		wx, wy       float64
		wantX, wantY int
	}{
		{"origin", 0, 0, 0, 0},
		{"center", 400, 300, 40, 12},
		{"far corner clamps", 800, 600, 79, 23},
		{"negative clamps", -10, -10, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := s.Project(tc.wx, tc.wy, 800, 600)
			if x != tc.wantX || y != tc.wantY {
				t.Errorf("Project(%v, %v) = (%d, %d), expected (%d, %d)", tc.wx, tc.wy, x, y, tc.wantX, tc.wantY)
			}
		})
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawHLine(0, 1, 3, '=', ColorGreen)

	lines := strings.Split(s.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1] != "===" {
		t.Errorf("second line = %q, expected %q", lines[1], "===")
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.Set(1, 1, 'X', ColorDefault)
	s.Resize(4, 3)

	if s.Width() != 4 || s.Height() != 3 {
		t.Fatalf("Resize dims = %dx%d, expected 4x3", s.Width(), s.Height())
	}
	if s.Get(1, 1) != ' ' {
		t.Error("Resize should produce a blank buffer")
	}
}
