//go:build windows

package main

import (
	"log"

	"golang.org/x/sys/windows"
)

const processPerMonitorDPIAware = 2

var (
	shcore                     = windows.NewLazySystemDLL("Shcore.dll")
	user32                     = windows.NewLazySystemDLL("user32.dll")
	procSetProcessDpiAwareness = shcore.NewProc("SetProcessDpiAwareness")
	procSetProcessDPIAware     = user32.NewProc("SetProcessDPIAware")
)

// enableDPIAwareness makes the overlay map one to one onto physical pixels,
// which the saved screen grab uses.
func enableDPIAwareness() {
	if err := procSetProcessDpiAwareness.Find(); err == nil {
		ret, _, _ := procSetProcessDpiAwareness.Call(uintptr(processPerMonitorDPIAware))
		if ret == 0 {
			log.Printf("DPI: Successfully set per-monitor DPI awareness")
		} else {
			log.Printf("DPI: Failed to set per-monitor DPI awareness, error code: %d", ret)
		}
		return
	}

	log.Printf("DPI: Shcore.SetProcessDpiAwareness not available, trying fallback")
	if err := procSetProcessDPIAware.Find(); err != nil {
		log.Printf("DPI: SetProcessDPIAware not available, no DPI awareness set")
		return
	}
	if ret, _, _ := procSetProcessDPIAware.Call(); ret != 0 {
		log.Printf("DPI: Successfully set system DPI awareness (fallback)")
	} else {
		log.Printf("DPI: Failed to set system DPI awareness (fallback)")
	}
}
