// Package steps declares the static step schemas ("layouts") of the intake wizard.
//
// A Layout is an ordered list of steps; each step lists the fields it edits.
// Every field is bound to a typed accessor on domain.Answers, so a dotted path
// such as "ecommerceDetails.categories" resolves to a concrete Go field instead
// of being split and walked at runtime. Unknown paths fail with
// domain.FieldPathError.
//
// Two layouts ship with the package:
//
//   - classic: 9 steps, required name and description, tagged by "goal".
//   - detailed: 12 steps with per-project-type details on step 4, required name
//     and shortDescription, tagged by "projectType".
package steps
