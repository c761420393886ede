package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	HTTPAddress   string
	SerialPort    string
	SerialBaud    int
	PeerAddr      string
	RingCapacity  int
	DispatchDepth int
	Wideband      bool
}

// Load reads environment variables and returns Config with sane defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	addr := os.Getenv("HTTP_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}

	port := os.Getenv("SERIAL_PORT")
	if port == "" {
		log.Println("Warning: SERIAL_PORT not set - serial command input disabled, use the /cmd websocket")
	}

	peer := os.Getenv("PEER_ADDR")
	if peer == "" {
		peer = "00:00:00:00:00:00"
		log.Println("Warning: PEER_ADDR not set - using the all-zero peer address")
	}

	cfg := Config{
		HTTPAddress:   addr,
		SerialPort:    port,
		SerialBaud:    intEnv("SERIAL_BAUD", 115200),
		PeerAddr:      peer,
		RingCapacity:  intEnv("RING_CAPACITY", 3600),
		DispatchDepth: intEnv("DISPATCH_DEPTH", 10),
		Wideband:      os.Getenv("WIDEBAND") == "1",
	}
	log.Printf("config: HTTP_ADDRESS=%s SERIAL_PORT=%s PEER_ADDR=%s wideband=%v", cfg.HTTPAddress, cfg.SerialPort, cfg.PeerAddr, cfg.Wideband)
	return cfg
}

func intEnv(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s=%q - using %d", key, raw, def)
		return def
	}
	return v
}
