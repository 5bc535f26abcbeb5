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

func TestVec2Scale(t *testing.T) {
	got := Vec2{1.5, 2.5}.Scale(0.25)
	want := Vec2{0.375, 0.625}
	if got != want {
		t.Errorf("Vec2.Scale() = %v, want %v", got, want)
	}
}

func TestVec2FlipV(t *testing.T) {
	tests := []struct {
		in, want Vec2
	}{
		{Vec2{0, 0}, Vec2{0, 1}},
		{Vec2{0.25, 0.75}, Vec2{0.25, 0.25}},
		{Vec2{1, 0.5}, Vec2{1, 0.5}},
	}
	for _, tt := range tests {
		if got := tt.in.FlipV(); got != tt.want {
			t.Errorf("%v.FlipV() = %v, want %v", tt.in, got, tt.want)
		}
		if got := tt.in.FlipV().FlipV(); got != tt.in {
			t.Errorf("FlipV twice = %v, want %v", got, tt.in)
		}
	}
}

func TestVecArrays(t *testing.T) {
	uv := Vec2FromArray([2]float32{0.125, 0.875})
	if uv.Array() != [2]float32{0.125, 0.875} {
		t.Errorf("Vec2 array round trip = %v", uv.Array())
	}

	p := Vec3FromArray([3]float32{1, 2, 3})
	if p != (Vec3{1, 2, 3}) {
		t.Errorf("Vec3FromArray = %v", p)
	}
	if p.Array() != [3]float32{1, 2, 3} {
		t.Errorf("Vec3 array round trip = %v", p.Array())
	}
}
