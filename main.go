// Command mdpipe converts web pages and HTML files into Markdown, JSON,
// PDF or embeddings.
package main

import "github.com/gaurav-prasanna/mdpipe/cmd"

func main() {
	cmd.Execute()
}
