package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
	if got := v.SqrLength(); got != 25 {
		t.Errorf("Vec2.SqrLength() = %v, want 25", got)
	}
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec2{}).Normalize() != (Vec2{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{0, 1, 0}) {
		t.Errorf("zero Vec3.Normalize() = %v, want up", got)
	}
}

func TestRectSqrDistance(t *testing.T) {
	r := NewRect(Vec2{0, 0}, Vec2{100, 100})

	tests := []struct {
		name string
		p    Vec2
		want float32
	}{
		{"center", Vec2{0, 0}, 0},
		{"inside", Vec2{49, -20}, 0},
		{"on edge", Vec2{50, 0}, 0},
		{"right of edge", Vec2{60, 0}, 100},
		{"below edge", Vec2{0, -53}, 9},
		{"diagonal corner", Vec2{53, 54}, 9 + 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.SqrDistance(tt.p); got != tt.want {
				t.Errorf("SqrDistance(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(Vec2{100, 100}, Vec2{10, 10})
	if !r.Contains(Vec2{95, 105}) {
		t.Error("corner point should be contained")
	}
	if r.Contains(Vec2{94.9, 100}) {
		t.Error("point left of the rect should not be contained")
	}
}
