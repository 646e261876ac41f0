/*
Package operation plans and runs patch rules over the files they target.

	+-------------+
	|   Config    |
	|   (Rules)   |
	+------+------+
	       |
	+------+------+
	|    Plan     |
	| (Targets)   |
	+------+------+
	       |
	+------+------+
	|   Applier   |
	| (per file)  |
	+-------------+

🔄 Flow:
1. Compiles every rule from the config
2. Expands each rule's file globs into targets, one per file
3. Applies a file's rules in configured order through patch.Applier
4. Reports each file and, once everything succeeded, each rule's message

⚡ Concurrency:
Files are independent. With async enabled they are patched by an errgroup with
a fixed limit; the rules for a single file always run in one goroutine. The
first failure cancels the remaining files and is returned. Nothing is retried
or rolled back.

🔍 Example:

	runner, err := operation.New(operation.Options{
		Config: cfg,
		Files:  files.New(cfg.Root),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	summary, err := runner.Run(ctx)
*/
package operation
