// Public domain.

package main

import "github.com/adrn/AST542/internal/labprog"

func main() {
	labprog.Main()
}
