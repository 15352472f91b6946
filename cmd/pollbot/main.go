package main

import "github.com/blueset/DiscussPollBot/internal/app"

func main() {
	app.Run()
}
