package layout_test

import (
	"fmt"

	"github.com/matzehuels/strut/pkg/layout"
)

func ExampleSolve() {
	rules := []layout.Rule{
		layout.Length(20),
		layout.Fill(1),
		layout.Percent(25),
	}

	sizes, err := layout.Solve(rules, 100, 0, layout.FlexStretch)
	if err != nil {
		panic(err)
	}
	fmt.Println(sizes)
	// Output: [20 55 25]
}

func ExampleSplit() {
	area := layout.Rect{Width: 80, Height: 24}
	rules := []layout.Rule{
		layout.Ratio(1, 4),
		layout.Fill(1),
	}

	rects, err := layout.Split(area, layout.Horizontal, rules, 0, layout.FlexStretch)
	if err != nil {
		panic(err)
	}
	for _, r := range rects {
		fmt.Println(r)
	}
	// Output:
	// 20x24@(0,0)
	// 60x24@(20,0)
}

func ExampleRule_WithMin() {
	rules := []layout.Rule{
		layout.Fill(1).WithMin(30),
		layout.Fill(3),
	}

	sizes, _ := layout.Solve(rules, 100, 0, layout.FlexStretch)
	fmt.Println(sizes)
	// Output: [30 70]
}
