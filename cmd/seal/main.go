// Command seal encrypts a secret with ENCRYPTION_KEY and prints the hex
// value expected by IRC_NICKSERV_PASSWORD.
//
//	echo -n 'my-nickserv-password' | go run ./cmd/seal
package main

import (
	"IRCHooks/internal/adapters/security"
	"IRCHooks/internal/core/ports"
	"IRCHooks/internal/shared/config"
	"IRCHooks/internal/shared/logger"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

func main() {
	baseLogger := logger.New(false)

	key, err := config.LoadEncryptionKey()
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	box, err := security.NewSecretBoxFromHex(key, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to initialize security service")
	}

	if err := run(box, os.Stdin, os.Stdout); err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to seal secret")
	}
}

// run seals the first line of in and writes the result to out.
func run(box ports.SecretBox, in io.Reader, out io.Writer) error {
	secret, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("could not read secret: %w", err)
	}
	secret = strings.TrimRight(secret, "\r\n")
	if secret == "" {
		return errors.New("no secret given on stdin")
	}

	sealed, err := box.Seal(secret)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, sealed)
	return err
}
