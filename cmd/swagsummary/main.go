package main

import "github.com/bronystylecrazy/swagsummary"

func main() {
	swagsummary.Main()
}
