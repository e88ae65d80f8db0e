package config

import "time"

const ShutdownTimeout = 10 * time.Second
