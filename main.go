package main

import "os"

func main() {
	NewGuestbook().Run(os.Args[1:])
}
