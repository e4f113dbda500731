package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media_upload_service/internal/media/domain"
	"media_upload_service/internal/media/transformer"
	"media_upload_service/internal/preview"
	"media_upload_service/internal/uploadclient"

	"github.com/spf13/pflag"
)

const usage = `usage:
  media_client upload --file <path> [--kind image|video] [--title t] [--description d] [--format label --out dir]
  media_client list
  media_client formats`

type commonFlags struct {
	server      string
	token       string
	cloudName   string
	deliveryURL string
}

func bindCommon(fs *pflag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.server, "server", getEnv("MEDIA_SERVER", "http://localhost:8080"), "media service base URL")
	fs.StringVar(&c.token, "token", os.Getenv("MEDIA_TOKEN"), "session token")
	fs.StringVar(&c.cloudName, "cloud-name", getEnv("CLOUDINARY_CLOUD_NAME", os.Getenv("NEXT_PUBLIC_CLOUDINARY_CLOUD_NAME")), "cloud name used for rendition URLs")
	fs.StringVar(&c.deliveryURL, "delivery-url", "https://res.cloudinary.com", "delivery base URL")
	return c
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "upload":
		err = runUpload(ctx, os.Args[2:])
	case "list":
		err = runList(ctx, os.Args[2:])
	case "formats":
		for _, f := range domain.Formats {
			fmt.Printf("%-26s %4dx%-4d %s\n", f.Label, f.Width, f.Height, f.AspectRatio)
		}
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runUpload(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("upload", pflag.ExitOnError)
	common := bindCommon(fs)
	path := fs.StringP("file", "f", "", "file to upload")
	kind := fs.String("kind", string(domain.AssetImage), "image or video")
	title := fs.String("title", "", "video title")
	description := fs.String("description", "", "video description")
	maxSize := fs.Int64("max-video-size", uploadclient.DefaultMaxVideoSize, "largest video accepted")
	format := fs.String("format", "", "download an image rendition in this format")
	out := fs.StringP("out", "o", ".", "directory for the downloaded rendition")
	if err := fs.Parse(args); err != nil {
		return err
	}

	assetKind := domain.AssetKind(*kind)
	if assetKind != domain.AssetImage && assetKind != domain.AssetVideo {
		return fmt.Errorf("unknown kind %q", *kind)
	}

	file, err := uploadclient.FileFromPath(*path)
	if err != nil {
		return err
	}

	client := uploadclient.New(common.server, common.token, uploadclient.WithMaxVideoSize(*maxSize))
	form := uploadclient.NewForm(client, assetKind)
	form.SetFile(file)
	form.SetMetadata(*title, *description)

	urls := transformer.NewURLBuilder(common.deliveryURL, common.cloudName)
	renderer := preview.NewRenderer(urls, preview.AgentFetcher{Timeout: time.Minute})
	renderer.BeginUpload()

	res, err := form.Submit(ctx, func(p int) {
		renderer.UploadProgress(p)
		fmt.Printf("\rUploading... %3d%%", p)
	})
	fmt.Println()
	if err != nil {
		if msg := form.Notification(); msg != "" && msg != err.Error() {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}
	if msg := form.Notification(); msg != "" {
		fmt.Println(msg)
	}
	fmt.Printf("publicId: %s\n", res.PublicID)
	if res.URL != "" {
		fmt.Printf("url:      %s\n", res.URL)
	}

	if assetKind == domain.AssetVideo && res.Video != nil {
		fmt.Printf("thumbnail: %s\n", urls.VideoThumbnailURL(res.Video.PublicID))
		fmt.Printf("preview:   %s\n", urls.VideoPreviewURL(res.Video.PublicID))
		if !res.SizeVerified {
			fmt.Println("warning: the server received a different byte count than declared")
		}
		return nil
	}

	if _, err := renderer.SetAsset(res.PublicID); err != nil {
		return err
	}
	if *format != "" {
		if _, err := renderer.SelectFormat(*format); err != nil {
			return err
		}
	}
	fmt.Printf("%s: %s\n", renderer.Format().Label, renderer.RenditionURL())

	if *format == "" {
		return nil
	}
	if err := renderer.Load(ctx); err != nil {
		return fmt.Errorf("rendition for %s not ready: %w", renderer.Format().Label, err)
	}
	written, err := renderer.Download(ctx, *out)
	if err != nil {
		return err
	}
	fmt.Printf("saved %s\n", written)
	return nil
}

func runList(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("list", pflag.ExitOnError)
	common := bindCommon(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	urls := transformer.NewURLBuilder(common.deliveryURL, common.cloudName)
	videos, err := uploadclient.New(common.server, common.token).ListVideos(ctx)
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		fmt.Println("no videos")
		return nil
	}
	for _, v := range videos {
		fmt.Printf("%s  %-24s %6.1fs  %d%% smaller  %s\n",
			v.CreatedAt.Format(time.RFC3339), v.Title, v.Duration, v.CompressionPercentage(), urls.VideoURL(v.PublicID))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
