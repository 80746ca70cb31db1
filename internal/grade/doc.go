// Package grade infers display grades for point-based EduPage grades.
//
// Teachers can attach an evaluation table to a test ("up to 50% is a 5,
// up to 65% a 4, ..."). The portal ships that table as a literal mapping
// inside the grade's free-text details. Infer finds the table, sorts it by
// bound, and picks the grade for the student's percentage, so the report
// can show "2 (17b / 20b)" instead of just the points.
package grade
