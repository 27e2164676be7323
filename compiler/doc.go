/*
Process of compilation

Program Text ->
	parse ->
Abstract Syntax Tree (ast) ->
	collect (front) ->
Module Tree and Function Registry ->
	build function table (front) ->
Signatures (tp) ->
	lower (front) ->
Intermediate Representation (ir) ->
	format ->
IR Dump

Every phase fails on the first error.
User facing errors are diag.Error values carrying a diag.Kind.
*/
package compiler
