package catalog

// DefaultEntries returns the built-in tool table used when the configuration
// does not declare its own tools.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Name:        "helloWorld",
			Description: "Returns a friendly greeting.",
			Text:        "Hello, world!",
		},
		{
			Name: "getPlanningInstructions",
			Description: `Provides general instructions for planning a piece of work with an LLM.
Use this tool when a developer wants to break a goal into an ordered list of
small, verifiable steps before starting.`,
			Source: "planning-instructions.md",
		},
		{
			Name: "getGitCommitInstructions",
			Description: `Returns best-practice instructions and examples for writing semantic git commit messages.
Use this tool to help a developer or LLM generate clear, conventional commit messages that
communicate the intent and context of code changes, following the semantic commit format.`,
			Source: "git-commit-instructions.md",
		},
		{
			Name: "getCodeChangePlanningInstructions",
			Description: `Provides detailed, step-by-step instructions for planning an LLM-assisted code change.
Use this tool to help a software developer and LLM collaboratively create a robust, actionable plan
for implementing a code change, including best practices for clarifying requirements,
structuring tasks, and managing dependencies.`,
			Source: "code-change-planning-instructions.md",
		},
		{
			Name: "getCodeChangePlanningInstructionsWithTdd",
			Description: `Provides detailed, step-by-step instructions for planning an LLM-assisted code change.
Use this tool to help a software developer and LLM collaboratively create a robust, test-driven plan
for implementing a code change, including best practices for clarifying requirements,
structuring tasks, and managing dependencies.
Call this tool when the developer specifies they want to write a code change using TDD.`,
			Source: "code-change-planning-instructions-with-tdd.md",
		},
		{
			Name: "getCodeChangeTaskCompletionInstructions",
			Description: `Provides detailed, step-by-step instructions for completing a code change task.
Use this tool to get instructions for completing a code change task defined in the plan.md file.
Instructions include best practices for testing, debugging, and committing changes.
Call this tool when the developer specifies something like "Help me implement the first task in the plan"`,
			Source: "code-change-task-completion-instructions.md",
		},
	}
}
