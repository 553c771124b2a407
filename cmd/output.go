package cmd

import "io"

// outWriter receives generated text; errWriter receives prompts, status lines and logs.
func outWriter() io.Writer {
	return rootCmd.OutOrStdout()
}

func errWriter() io.Writer {
	return rootCmd.ErrOrStderr()
}
