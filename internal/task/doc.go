// Package task holds the task record and the ordered collection that owns it.
//
// A Task carries a name, a description, an integer priority, a deadline
// date and a completion flag. Priority is expected to be 1 to 5 but is not
// bounded here; callers supply whatever integer the user typed.
//
// # Ordering
//
// A Store keeps tasks in insertion order until Sort is called:
//
//   - SortByPriority: highest priority first
//   - SortByDeadline: earliest deadline first
//
// Both sorts are stable, so tasks with equal keys keep their prior order.
//
// # Task numbers
//
// Every Store operation that addresses a single task takes the 1-based
// number shown by List. Numbers outside [1, Len] return ErrIndexOutOfRange
// and leave the collection untouched.
//
// # Dates
//
// Deadlines are entered and displayed as dd-mm-yyyy. The text encoding
// used by persistence is yyyy-mm-dd.
package task
