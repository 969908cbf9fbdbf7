/*
Package status holds the outcome of a batch run and the file access it needs.

	            +-------------+
	            |   Report    |
	            | (Outcomes)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           | Format  |
	| (Storage) |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Records one FileResult per enumerated file
- Aggregates modified / unchanged / failed counts and replacement totals
- Persists rewritten content with an atomic rename
- Renders report lines for the console

📝 Design Philosophy:
A Report is built once per run and returned to the caller; nothing is kept
between runs. Files with no replacement are never opened for writing, so their
modification time is left alone.

🔍 Example:

	report := status.NewReport(runID, false, rules)
	report.Add(status.FileResult{Path: path, Status: status.StatusModified, Replacements: 3})

	f := status.NewDefaultFormatter(false)
	fmt.Println(f.FormatSummary(report))
	// Total: 3 replacements in 1 files
	// 1 modified, 0 unchanged, 0 failed
*/
package status
