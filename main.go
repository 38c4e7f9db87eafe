package main

import "github.com/metastrip/metastrip/cmd/metastrip"

func main() { metastrip.Execute() }
