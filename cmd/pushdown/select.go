package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hugr-lab/pushdown-go/connector/s3select"
)

// selectCommand runs a filter as an S3 Select query against one object and
// copies the CSV output to stdout.
type selectCommand struct {
	targets    targetFlags
	endpoint   string
	accessKey  string
	secretKey  string
	region     string
	insecure   bool
	bucket     string
	object     string
	columns    string
	projection []string
	wire       string
}

func (cmd *selectCommand) client() (*minio.Client, error) {
	var chain []credentials.Provider
	if cmd.accessKey != "" {
		chain = []credentials.Provider{&credentials.Static{
			Value: credentials.Value{
				AccessKeyID:     cmd.accessKey,
				SecretAccessKey: cmd.secretKey,
				SignerType:      credentials.SignatureV4,
			},
		}}
	} else {
		chain = []credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.FileAWSCredentials{},
		}
	}
	client, err := minio.New(cmd.endpoint, &minio.Options{
		Creds:  credentials.NewChainCredentials(chain),
		Secure: !cmd.insecure,
		Region: cmd.region,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize s3 client: %w", err)
	}
	return client, nil
}

func (cmd *selectCommand) run(*kingpin.ParseContext) error {
	opts, err := cmd.targets.s3Options()
	if err != nil {
		return err
	}
	columns, err := loadColumns(cmd.columns)
	if err != nil {
		return err
	}
	query, pushed, err := s3select.Compile(cmd.wire, columns, cmd.projection, opts)
	if err != nil {
		return err
	}
	if !pushed && cmd.wire != "" {
		fmt.Fprintln(os.Stderr, "filter not pushed, selecting all rows")
	}

	client, err := cmd.client()
	if err != nil {
		return err
	}
	ctx := context.Background()
	res, err := s3select.Run(ctx, client, cmd.bucket, cmd.object, query, opts)
	if err != nil {
		return err
	}
	defer res.Close()
	if _, err := io.Copy(os.Stdout, res); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func addSelectCommand(app *kingpin.Application) {
	cmd := &selectCommand{}
	c := app.Command("select", "Run a wire filter as an S3 Select query on one object.").Action(cmd.run)
	c.Flag("endpoint", "S3 endpoint host[:port].").Required().StringVar(&cmd.endpoint)
	c.Flag("access-key", "Access key; environment or shared credentials when empty.").Envar("AWS_ACCESS_KEY_ID").StringVar(&cmd.accessKey)
	c.Flag("secret-key", "Secret key.").Envar("AWS_SECRET_ACCESS_KEY").StringVar(&cmd.secretKey)
	c.Flag("region", "Bucket region.").StringVar(&cmd.region)
	c.Flag("insecure", "Use plain HTTP.").BoolVar(&cmd.insecure)
	c.Flag("bucket", "Bucket name.").Required().StringVar(&cmd.bucket)
	c.Flag("object", "Object key.").Required().StringVar(&cmd.object)
	c.Flag("columns", "YAML column file of the object.").Required().ExistingFileVar(&cmd.columns)
	c.Flag("projection", "Columns to select. Repeatable.").StringsVar(&cmd.projection)
	cmd.targets.register(c)
	c.Arg("filter", "The wire filter; empty for no filter.").StringVar(&cmd.wire)
}
