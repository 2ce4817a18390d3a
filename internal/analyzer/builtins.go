package analyzer

// pythonKeywords are reserved words that never need a binding.
var pythonKeywords = []string{
	"False", "None", "True", "and", "as", "assert", "async", "await",
	"break", "class", "continue", "def", "del", "elif", "else", "except",
	"finally", "for", "from", "global", "if", "import", "in", "is",
	"lambda", "nonlocal", "not", "or", "pass", "raise", "return", "try",
	"while", "with", "yield",
}

// pythonBuiltins are the callables and constants of the builtins module.
var pythonBuiltins = []string{
	"abs", "aiter", "all", "anext", "any", "ascii", "bin", "bool",
	"breakpoint", "bytearray", "bytes", "callable", "chr", "classmethod",
	"compile", "complex", "copyright", "credits", "delattr", "dict",
	"dir", "divmod", "enumerate", "eval", "exec", "exit", "filter",
	"float", "format", "frozenset", "getattr", "globals", "hasattr",
	"hash", "help", "hex", "id", "input", "int", "isinstance",
	"issubclass", "iter", "len", "license", "list", "locals", "map",
	"max", "memoryview", "min", "next", "object", "oct", "open", "ord",
	"pow", "print", "property", "quit", "range", "repr", "reversed",
	"round", "set", "setattr", "slice", "sorted", "staticmethod", "str",
	"sum", "super", "tuple", "type", "vars", "zip",
	"Ellipsis", "NotImplemented", "__import__", "__name__", "__doc__",
	"__file__", "__debug__", "__builtins__",
}

// pythonExceptions are the built-in exception and warning types.
var pythonExceptions = []string{
	"ArithmeticError", "AssertionError", "AttributeError", "BaseException",
	"BaseExceptionGroup", "BlockingIOError", "BrokenPipeError",
	"BufferError", "BytesWarning", "ChildProcessError",
	"ConnectionAbortedError", "ConnectionError", "ConnectionRefusedError",
	"ConnectionResetError", "DeprecationWarning", "EOFError",
	"EncodingWarning", "EnvironmentError", "Exception", "ExceptionGroup",
	"FileExistsError", "FileNotFoundError", "FloatingPointError",
	"FutureWarning", "GeneratorExit", "IOError", "ImportError",
	"ImportWarning", "IndentationError", "IndexError", "InterruptedError",
	"IsADirectoryError", "KeyError", "KeyboardInterrupt", "LookupError",
	"MemoryError", "ModuleNotFoundError", "NameError",
	"NotADirectoryError", "NotImplementedError", "OSError",
	"OverflowError", "PendingDeprecationWarning", "PermissionError",
	"ProcessLookupError", "RecursionError", "ReferenceError",
	"ResourceWarning", "RuntimeError", "RuntimeWarning",
	"StopAsyncIteration", "StopIteration", "SyntaxError", "SyntaxWarning",
	"SystemError", "SystemExit", "TabError", "TimeoutError", "TypeError",
	"UnboundLocalError", "UnicodeDecodeError", "UnicodeEncodeError",
	"UnicodeError", "UnicodeTranslateError", "UnicodeWarning",
	"UserWarning", "ValueError", "Warning", "ZeroDivisionError",
}

// typeMethods are the non-dunder methods of str, list, dict, tuple, and
// set. Keeping them in the identifier set avoids false positives when
// bound methods are passed around bare.
var typeMethods = []string{
	// str
	"capitalize", "casefold", "center", "count", "encode", "endswith",
	"expandtabs", "find", "format_map", "index", "isalnum", "isalpha",
	"isascii", "isdecimal", "isdigit", "isidentifier", "islower",
	"isnumeric", "isprintable", "isspace", "istitle", "isupper", "join",
	"ljust", "lower", "lstrip", "maketrans", "partition", "removeprefix",
	"removesuffix", "replace", "rfind", "rindex", "rjust", "rpartition",
	"rsplit", "rstrip", "split", "splitlines", "startswith", "strip",
	"swapcase", "title", "translate", "upper", "zfill",
	// list
	"append", "clear", "copy", "extend", "insert", "pop", "remove",
	"reverse", "sort",
	// dict
	"fromkeys", "get", "items", "keys", "popitem", "setdefault",
	"update", "values",
	// set
	"add", "difference", "difference_update", "discard", "intersection",
	"intersection_update", "isdisjoint", "issubset", "issuperset",
	"symmetric_difference", "symmetric_difference_update", "union",
}

// defaultBuiltins returns the fixed built-in identifier set used by
// name resolution and shadowing checks.
func defaultBuiltins() map[string]struct{} {
	set := make(map[string]struct{}, 512)
	for _, group := range [][]string{
		pythonKeywords, pythonBuiltins, pythonExceptions, typeMethods,
	} {
		for _, name := range group {
			set[name] = struct{}{}
		}
	}
	return set
}
