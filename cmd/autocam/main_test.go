package main

import (
	"reflect"
	"testing"
)

func TestParseVariants(t *testing.T) {
	got, err := parseVariants(" 0.5, 1.5 ,2")
	if err != nil {
		t.Fatalf("parseVariants failed: %v", err)
	}
	if want := []float64{0.5, 1.5, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got, err := parseVariants(""); err != nil || got != nil {
		t.Errorf("empty input gave %v, %v", got, err)
	}
	if _, err := parseVariants("1,abc"); err == nil {
		t.Error("expected an error for a non-number")
	}
}
