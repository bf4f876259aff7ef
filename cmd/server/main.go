package main

import "github.com/nguyentranbao-ct/product-search/cmd"

func main() {
	cmd.Execute()
}
