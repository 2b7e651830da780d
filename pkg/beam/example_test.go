package beam_test

import (
	"fmt"

	"github.com/matzehuels/beamsplit/pkg/beam"
	"github.com/matzehuels/beamsplit/pkg/grid"
)

func ExampleComputeBoth() {
	text := `.......
...S...
...^...
..^.^..
.......`

	res, err := beam.ComputeBoth(text)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Splits:", res.Splits)
	fmt.Println("Paths:", res.Paths)
	fmt.Println("Exit columns:", res.ExitColumns)
	// Output:
	// Splits: 3
	// Paths: 4
	// Exit columns: 3
}

func ExampleEngine() {
	g := grid.MustParse("..S..\n.....\n..^..\n.....\n.^.^.\n.....\n")

	e := beam.New(g)
	if err := e.Run(); err != nil {
		fmt.Println(err)
		return
	}
	total, _ := e.Resolve()

	fmt.Println("Splits:", e.Splits())
	fmt.Println("Paths:", total)
	fmt.Println("Paths through column 2:", e.CollectorPaths(2))
	// Output:
	// Splits: 3
	// Paths: 4
	// Paths through column 2: 2
}
