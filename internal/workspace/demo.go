package workspace

// NewDemoWorkspace returns a workspace seeded with sample classes and documents.
func NewDemoWorkspace(opts ...Option) *Workspace {
	w := New(opts...)
	for _, name := range []string{"Math", "History", "Science"} {
		_, _ = w.AddClass(name)
	}
	_, _ = w.AddDocument("Math", "Math Homework", "math-homework.txt",
		"Solve for x: 2x + 3 = 11. Factor x^2 - 5x + 6. Find the derivative of 3x^2 + 2x.")
	_, _ = w.AddDocument("History", "History Essay", "history-essay.txt",
		"The Industrial Revolution began in Britain in the late 18th century and transformed manufacturing, transport and urban life.")
	_, _ = w.AddDocument("Science", "Lab Report", "lab-report.txt",
		"Hypothesis: plants grown under blue light grow taller than plants under red light. Results: blue 14cm, red 11cm after two weeks.")
	_ = w.SelectClass("Math")
	return w
}
