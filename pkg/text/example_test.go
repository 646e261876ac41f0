package text_test

import (
	"fmt"

	"github.com/walteh/patchrc/pkg/text"
)

func ExampleCompiledRule_Apply() {
	rule := text.TrainLookupRule().MustCompile()

	content := "<div>\n" +
		"    {/* Train Lookup Button (TR-IM-303) */}\n" +
		"    <button>Lookup</button>\n" +
		"{/* Arrival Date */}\n" +
		"</div>\n"

	res := rule.Apply(content)

	fmt.Print(res.ModifiedContent)
	fmt.Printf("Changes: %d\n", res.ReplacementCount)

	// Output:
	// <div>            {/* Arrival Date */}
	// </div>
	// Changes: 1
}

func ExampleRegexpReplacer_ValidateRules() {
	replacer := text.NewRegexpReplacer()

	rules := []text.Rule{
		text.TrainLookupRule(),
		{
			Name:    "bump-version",
			Pattern: `version: \d+`,
		},
	}

	err := replacer.ValidateRules(rules)
	fmt.Printf("Validation error: %v\n", err)

	// Output:
	// Validation error: rule 1: at least one file is required
}
