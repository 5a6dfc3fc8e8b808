package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"moviehub/internal/grpcserver"
	"moviehub/internal/movies"
	"moviehub/internal/session"
)

const defaultBaseURL = "http://localhost:8080"

// routes maps an operation to its HTTP path prefix.
var routes = map[string]string{
	movies.OpMonth:     "/cantidad_filmaciones_mes/",
	movies.OpDay:       "/cantidad_filmaciones_dia/",
	movies.OpScore:     "/score_titulo/",
	movies.OpVotes:     "/votos_titulo/",
	movies.OpActor:     "/get_actor/",
	movies.OpDirector:  "/get_director/",
	movies.OpRecommend: "/recomendacion/",
}

func main() {
	global := flag.NewFlagSet("moviehub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	grpcAddr := global.String("grpc", "", "query a gRPC server at this address instead of the HTTP API")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd, arg := args[0], strings.Join(args[1:], " ")

	switch {
	case cmd == "info":
		var out movies.Info
		client := &http.Client{Timeout: 15 * time.Second}
		if err := doJSON(ctx, client, strings.TrimRight(*baseURL, "/")+"/", &out); err != nil {
			log.Fatalf("info failed: %v", err)
		}
		printJSON(out)
	case cmd == "session":
		handleSession(*baseURL, args[1:])
	case routes[cmd] != "":
		if strings.TrimSpace(arg) == "" {
			log.Fatalf("usage: moviehub %s <value>", cmd)
		}
		if *grpcAddr != "" {
			if err := queryGRPC(ctx, *grpcAddr, cmd, arg); err != nil {
				log.Fatalf("%s failed: %v", cmd, err)
			}
			return
		}
		var out map[string]any
		client := &http.Client{Timeout: 15 * time.Second}
		if err := doJSON(ctx, client, endpoint(*baseURL, cmd, arg), &out); err != nil {
			log.Fatalf("%s failed: %v", cmd, err)
		}
		printJSON(out)
	default:
		printUsage()
		os.Exit(1)
	}
}

func endpoint(baseURL, op, arg string) string {
	return strings.TrimRight(baseURL, "/") + routes[op] + url.PathEscape(arg)
}

func queryGRPC(ctx context.Context, addr, op, arg string) error {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer conn.Close()
	c := grpcserver.NewClient(conn)

	var out any
	switch op {
	case movies.OpMonth:
		out, err = c.FilmsPerMonth(ctx, arg)
	case movies.OpDay:
		out, err = c.FilmsPerDay(ctx, arg)
	case movies.OpScore:
		out, err = c.TitleScore(ctx, arg)
	case movies.OpVotes:
		out, err = c.TitleVotes(ctx, arg)
	case movies.OpActor:
		out, err = c.ActorStats(ctx, arg)
	case movies.OpDirector:
		out, err = c.DirectorStats(ctx, arg)
	case movies.OpRecommend:
		out, err = c.Recommend(ctx, arg)
	}
	if err != nil {
		return err
	}
	printJSON(out)
	return nil
}

func handleSession(baseURL string, args []string) {
	fs := flag.NewFlagSet("session", flag.ExitOnError)
	tcpAddr := fs.String("tcp", "", "use the TCP session server at this address instead of websocket")
	_ = fs.Parse(args)

	var err error
	if *tcpAddr != "" {
		err = runTCPSession(*tcpAddr, os.Stdin)
	} else {
		var wsURL string
		if wsURL, err = websocketURL(baseURL, "/ws"); err == nil {
			err = runWebSocketSession(wsURL, os.Stdin)
		}
	}
	if err != nil && !errors.Is(err, io.EOF) {
		log.Fatalf("[session] %v", err)
	}
}

// parseLine turns "votos toy story" into a request frame. Blank lines
// and lines without an argument are skipped.
func parseLine(line string) (session.Request, bool) {
	op, arg, ok := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	if !ok || op == "" || arg == "" {
		return session.Request{}, false
	}
	return session.Request{Op: op, Arg: arg}, true
}

func runWebSocketSession(wsURL string, in io.Reader) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[session] connected to %s", wsURL)

	done := make(chan error, 1)
	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				done <- err
				return
			}
			printFrame(msg)
		}
	}()

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		req, ok := parseLine(sc.Text())
		if !ok {
			continue
		}
		if err := conn.WriteJSON(req); err != nil {
			return err
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	select {
	case err := <-done:
		if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
			return nil
		}
		return err
	case <-time.After(2 * time.Second):
		return nil
	}
}

func runTCPSession(addr string, in io.Reader) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()
	log.Printf("[session] connected to %s", addr)

	done := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			printFrame(sc.Bytes())
		}
		done <- sc.Err()
	}()

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		req, ok := parseLine(sc.Text())
		if !ok {
			continue
		}
		b, err := json.Marshal(req)
		if err != nil {
			return err
		}
		if _, err := conn.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
	}
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		return nil
	}
}

func printFrame(raw []byte) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		fmt.Println(string(raw))
		return
	}
	printJSON(obj)
}

func doJSON(ctx context.Context, client *http.Client, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("GET %s failed: %s", endpoint, strings.TrimSpace(string(data)))
	}
	return json.Unmarshal(data, out)
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

func printUsage() {
	fmt.Println("moviehub [-api URL] [-grpc ADDR] <command> [value]")
	fmt.Println("commands:")
	fmt.Println("  info")
	fmt.Println("  mes <mes>            films released in a month")
	fmt.Println("  dia <dia>            films released on a weekday")
	fmt.Println("  score <titulo>       release year and popularity")
	fmt.Println("  votos <titulo>       vote count and average")
	fmt.Println("  actor <nombre>       actor return stats")
	fmt.Println("  director <nombre>    director return stats and films")
	fmt.Println("  recomendacion <titulo>")
	fmt.Println("  session [-tcp ADDR]  interactive session, one \"<op> <value>\" per line")
}
