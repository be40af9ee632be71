package main

import "time"

type Config struct {
	Host                 string        `env:"HOST,default=0.0.0.0"`
	Port                 int           `env:"PORT,default=3000"`
	GroqAPIKey           string        `env:"GROQ_API_KEY,required=true"`
	GroqModel            string        `env:"GROQ_MODEL,default=llama-3.1-8b-instant"`
	GroqEndpoint         string        `env:"GROQ_ENDPOINT"`
	TranslationTimeout   time.Duration `env:"TRANSLATION_TIMEOUT,default=10s"`
	SendTimeout          time.Duration `env:"SEND_TIMEOUT,default=5s"`
	WriteTimeout         time.Duration `env:"WRITE_TIMEOUT,default=10s"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	GCInterval           time.Duration `env:"GC_INTERVAL,default=10m"`
	HistoryCapacity      int           `env:"HISTORY_CAPACITY,default=15"`
	ContextWindow        int           `env:"CONTEXT_WINDOW,default=10"`
	MaxMessageLength     int           `env:"MAX_MESSAGE_LENGTH,default=500"`
	BufferSize           int           `env:"BUFFER_SIZE,default=64"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=32"`
	NumberOfWorkers      int           `env:"NUMBER_OF_WORKERS,default=4"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,default=*"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,default=./data/history"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	EnableModeration     bool          `env:"ENABLE_MODERATION,default=true"`
}
