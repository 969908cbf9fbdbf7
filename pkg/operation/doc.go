/*
Package operation implements the batch run: reading each candidate file,
applying the rule set, and writing the result back.

	+-------------+
	|    Walk     |
	| (Candidates)|
	+------+------+
	       |
	+------+------+
	|   Runner    |
	| (Transform) |
	+------+------+
	       |
	+------+------+
	|   Status    |
	|  (Report)   |
	+-------------+

🎯 Purpose:
- Drives the read -> apply -> write cycle for every enumerated file
- Writes a file only when at least one rule made a replacement
- Records one status.FileResult per file and returns the aggregate Report

🔄 Flow:
1. Receives a lazy file sequence from the walk package
2. Reads the file once and applies the in-scope rules in order
3. Persists the new content atomically, or skips the write in dry-run
4. Reports the outcome; read and write failures are recorded, not fatal

⚡ Concurrency:
Files are processed one at a time unless Workers is above one. In that case
up to Workers files are in flight and a per-path lock keeps two workers from
rewriting the same file at once. The report keeps enumeration order either way.

🔍 Example:

	files, err := walk.Enumerate("lib", walk.Filter{Extensions: []string{".dart"}})
	if err != nil {
		return err // walk.ErrNotFound when lib does not exist
	}

	runner, err := operation.New(operation.Options{Rules: rules, Root: "lib"})
	if err != nil {
		return err
	}

	report, err := runner.Run(ctx, files)
*/
package operation
