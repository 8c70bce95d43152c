package cpuinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestFloorPowerOfTwo(t *testing.T) {
	tests := map[int]int{-3: 1, 0: 1, 1: 1, 2: 2, 3: 2, 7: 4, 8: 8, 12: 8, 1000: 512}
	for in, want := range tests {
		if got := floorPowerOfTwo(in); got != want {
			t.Errorf("floorPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestDetect(t *testing.T) {
	info := Detect()
	if info.Arch != runtime.GOARCH {
		t.Errorf("Arch = %q, want %q", info.Arch, runtime.GOARCH)
	}
	if info.Workers < 1 || info.Workers > info.GOMAXPROCS || info.Workers&(info.Workers-1) != 0 {
		t.Errorf("Workers = %d, want a power of two in [1, %d]", info.Workers, info.GOMAXPROCS)
	}
	s := info.String()
	if !strings.Contains(s, "arch="+runtime.GOARCH) {
		t.Errorf("String() = %q, missing arch", s)
	}
	t.Logf("cpu: %s", s)
}

func TestDefaultWorkersEnv(t *testing.T) {
	t.Setenv("BITONIC_WORKERS", "6")
	if got := DefaultWorkers(); got != 4 {
		t.Errorf("DefaultWorkers() with BITONIC_WORKERS=6 = %d, want 4", got)
	}

	for _, bad := range []string{"zero", "-2", "0"} {
		t.Setenv("BITONIC_WORKERS", bad)
		if _, ok := WorkersEnv(); ok {
			t.Errorf("WorkersEnv() accepted %q", bad)
		}
		if got, want := DefaultWorkers(), floorPowerOfTwo(runtime.GOMAXPROCS(0)); got != want {
			t.Errorf("DefaultWorkers() with BITONIC_WORKERS=%q = %d, want %d", bad, got, want)
		}
	}
}
