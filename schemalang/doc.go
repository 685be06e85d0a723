// Package schemalang implements the schema template micro-language that
// consumes catalog attribute maps. A template is plain text with three
// constructs:
//
//	{attribute}                     value of an attribute (dash form)
//	%if attr %then ... %else ... %end   conditional; an attribute is
//	                                true when its value is non-empty
//	[ literal text ]                verbatim block; the only way to
//	                                emit the characters { % $ [
//
// plus the escapes $br (newline), $tb (tab) and $sp (space). Unknown
// attributes render empty, matching the boolean convention where false
// is the empty string and true is "1".
package schemalang
