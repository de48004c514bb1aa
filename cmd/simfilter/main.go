// cmd/simfilter/main.go
package main

import (
	"simfilter/internal/app"
	"simfilter/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
