package main

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testROM(t *testing.T) []byte {
	t.Helper()
	rom := make([]byte, 2*0x4000)
	rom[0x0147] = 0x00 // ROM only
	rom[0x0148] = 0
	rom[0x0149] = 0
	var sum uint8
	for i := 0x0134; i <= 0x014C; i++ {
		sum = sum - rom[i] - 1
	}
	rom[0x014D] = sum
	return rom
}

func TestRunProducesBMPAndHistogram(t *testing.T) {
	dir := t.TempDir()
	romPath := filepath.Join(dir, "game.gb")
	require.NoError(t, os.WriteFile(romPath, testROM(t), 0o644))

	bmpPath := filepath.Join(dir, "frame.bmp")
	histPath := filepath.Join(dir, "timing.png")

	err := run(romPath, "", 1, bmpPath, "greyscale", histPath, true)
	require.NoError(t, err)

	bmpInfo, err := os.Stat(bmpPath)
	require.NoError(t, err)
	assert.Greater(t, bmpInfo.Size(), int64(0))

	histInfo, err := os.Stat(histPath)
	require.NoError(t, err)
	assert.Greater(t, histInfo.Size(), int64(0))
}

func TestRunWritesSaveFileWhenRAMEnabled(t *testing.T) {
	rom := testROM(t)
	rom[0x0147] = 0x03 // MBC1+RAM+BATTERY
	rom[0x0149] = 0x02 // 8KB RAM
	var sum uint8
	for i := 0x0134; i <= 0x014C; i++ {
		sum = sum - rom[i] - 1
	}
	rom[0x014D] = sum
	dir := t.TempDir()
	romPath := filepath.Join(dir, "game.gb")
	require.NoError(t, os.WriteFile(romPath, rom, 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, run(romPath, "", 1, "", "greyscale", "", false))

	digest := md5.Sum(rom)
	savePath := hex.EncodeToString(digest[:]) + ".sav"
	_, statErr := os.Stat(filepath.Join(dir, savePath))
	assert.NoError(t, statErr)
}

func TestRunMissingROMReturnsError(t *testing.T) {
	err := run(filepath.Join(t.TempDir(), "missing.gb"), "", 1, "", "greyscale", "", true)
	assert.Error(t, err)
}
