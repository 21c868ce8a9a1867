package linfit

import (
	"fmt"
	"os"

	"github.com/aouyang1/go-linfit/linearmodel"
	"github.com/aouyang1/go-linfit/pointset"
)

func Example_studyHours() {
	ps := pointset.FromObservations([]pointset.Observation{
		{X: 1, Y: 2.0},
		{X: 2, Y: 4.0},
		{X: 3, Y: 5.0},
		{X: 4, Y: 4.5},
		{X: 5, Y: 6.0},
	})

	f, err := New(&Options{
		Method: linearmodel.MethodManual,
		Range:  linearmodel.DefaultRange(),
	})
	if err != nil {
		panic(err)
	}
	if err := f.Fit(ps); err != nil {
		panic(err)
	}

	m, err := f.Model()
	if err != nil {
		panic(err)
	}
	if err := m.TablePrint(os.Stdout, "", "  "); err != nil {
		panic(err)
	}

	for _, hours := range []float64{6, 20} {
		grade, err := f.Predict(hours)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%.1f hours -> %.2f\n", hours, grade)
	}
	// Output:
	// Linear Fit:
	//   Method: manual
	//   Range: [0.000, 10.000]
	//   Training Size: 5
	//   Equation: y = 0.850x + 1.750
	// Scores:
	//   R2: 0.8210    MSE: 0.315    MAPE: 0.144
	// 6.0 hours -> 6.85
	// 20.0 hours -> 10.00
}
