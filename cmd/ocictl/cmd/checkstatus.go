package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hsiuhsiu/oci-go/internal/oci"
	"github.com/hsiuhsiu/oci-go/pkg/oracle"
)

var (
	oraCode    int32
	oraMessage string
	location   string
)

var checkStatusCmd = &cobra.Command{
	Use:   "check-status <status>",
	Short: "Translate an OCI status code",
	Long: `Prints the error oci-go reports for an OCI status code, as if a call
named by --location had returned it. For OCI_ERROR (-1) and
OCI_SUCCESS_WITH_INFO (1) the diagnostic record is taken from --ora-code and
--message. No client library is loaded.`,
	Example: `  ocictl check-status -- -1 --ora-code 1017 --message "ORA-01017: invalid username/password"
  ocictl check-status 100`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckStatus,
}

func init() {
	checkStatusCmd.Flags().Int32Var(&oraCode, "ora-code", 0, "ORA error code of the diagnostic record")
	checkStatusCmd.Flags().StringVar(&oraMessage, "message", "", "message text of the diagnostic record")
	checkStatusCmd.Flags().StringVar(&location, "location", "OCIStmtExecute", "name of the call that returned the status")
	rootCmd.AddCommand(checkStatusCmd)
}

// recordReader serves one fixed diagnostic record. A zero code means the
// handle holds no record.
type recordReader struct {
	code    int32
	message string
}

func (r recordReader) ErrorGet(_ oci.Handle, _ uint32) (int32, string, oci.Status) {
	if r.code == 0 {
		return 0, "", oci.NoData
	}
	return r.code, r.message, oci.Success
}

func runCheckStatus(cmd *cobra.Command, args []string) error {
	v, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid status %q: %w", args[0], err)
	}
	status := oci.Status(v)

	translated, err := translate(recordReader{code: oraCode, message: oraMessage}, status, location)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if translated == nil {
		fmt.Fprintf(out, "%s: no error\n", status)
		return nil
	}
	var oe *oracle.Error
	if errors.As(translated, &oe) {
		fmt.Fprintf(out, "%s (warning=%t):%s", status, oe.Warning(), oe.Error())
	}
	return nil
}

// translate runs CheckStatus, turning a contract violation panic into an
// error for display.
func translate(r oracle.ErrorReader, status oci.Status, location string) (translated error, err error) {
	defer func() {
		if p := recover(); p != nil {
			cv, ok := p.(*oracle.ContractViolation)
			if !ok {
				panic(p)
			}
			err = cv
		}
	}()
	return oracle.CheckStatus(r, status, 1, location), nil
}
