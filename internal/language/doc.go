// Package language normalizes spoken and signed language codes.
//
// Tags are parsed with golang.org/x/text/language; a small table maps the
// languages the pipeline commonly sees to ISO codes and display names.
package language
