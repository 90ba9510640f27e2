/*
Package flavor renders procedural flavor text from Go text templates whose
content comes from trained Markov models.

A Manager loads every template matching its pattern from a directory and
binds a set of generation functions to models registered by name:

	mgr, err := flavor.NewManager(logger, flavor.DefaultConfig())
	mgr.Register("tavern", tavernModel)
	err = mgr.Execute(os.Stdout, "rumor.tmpl", nil)

with a template such as:

	{{ title (pick "Old" "Grim" "Drunk") }} {{ words "tavern" 2 }} says: {{ sentence "tavern" 2 }}

# Template functions

	sentence model n   n sentences from model (sentences is an alias)
	blob model n       n words from model (words is an alias)
	pick a b ...       one argument at random
	repeat n           a slice of length n for use with range
	upper, lower       change case
	title              upper-case the first letter of every word

Generation failures, such as an unknown model name or an untrained model,
are logged and render as empty text, so a single bad call does not break a
whole page.

All Manager methods are safe for concurrent use. Template execution is
serialized because the underlying models are not.
*/
package flavor
