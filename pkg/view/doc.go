// Package view composes hxstate's HTML.
//
// A page is built from a closed set of fragment kinds. Every fragment is a
// standalone element with a stable id, so a mutating request can send back
// just the regions it changed:
//
//   - the primary fragment replaces the element that issued the request
//   - secondary fragments carry hx-swap-oob and replace the element with the
//     same id wherever it sits in the page
//
// Composition is a pure function of its input. Equal records produce equal
// bytes.
package view
