/*
Package run implements the invocation controller for datasync.

	+-------------+
	| Controller  |
	| (Dispatch)  |
	+------+------+
	       |
	  +----+------+
	  |           |
	+-+------+  +-+---------+
	| Single |  | All Tasks |
	+--------+  +-----------+

🎯 Purpose:
- Decides which task records an invocation processes
- Drives each record through exclusion, validation, resolution, execution
- Aggregates per-record outcomes into a Report

🔄 Flow:
1. Dispatch picks the mode: cluster index > all flag > explicit index
2. Each selected index is read, validated and, when valid, executed
3. Skip/Reject outcomes never abort a batch; fatal executor errors do
4. Batch mode ends with a summary table

⚡ Key Responsibilities:
- Cluster array index handling (over-provisioned indices are a clean no-op)
- Out-of-range explicit indices are hard argument errors
- Counting Skip, Reject and warning tallies for exit-code decisions

🤝 Interfaces:
- source.Reader: record extraction per format
- Executor: the slice of pkg/executor the controller needs
- status.Printer: user-facing per-record lines

📝 Design Philosophy:
The controller owns invocation-scoped failures only. Per-record problems are
the validator's domain and are always survivable; the single exception is
archive creation, which is all-or-nothing by design and escalates.
*/
package run
