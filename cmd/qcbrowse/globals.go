package main

type Global struct {
	log logger

	Site string
	Lab  string

	// ReportsDir holds the per-pair reports being browsed.
	ReportsDir string
}

type logger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}
