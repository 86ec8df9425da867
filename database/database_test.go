package database_test

import (
	"testing"

	"github.com/h-merrill/minnow/database"
	"github.com/h-merrill/minnow/program"
)

const script = `
db d = db("SQLite", ":memory:");
d.exec("CREATE TABLE fish (name TEXT, size INT)");
int added = d.exec("INSERT INTO fish VALUES ('minnow', 5), ('pike', 90)");
int biggest = d.queryInt("SELECT MAX(size) FROM fish");
string name = d.queryString("SELECT name FROM fish ORDER BY size LIMIT 1");
d.close();
`

func TestScriptedSQL(t *testing.T) {
	p := program.New("test", script)
	if err := database.Register(p); err != nil {
		t.Fatal(err)
	}
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}

	added, err := p.Get("added").AsInt()
	if err != nil {
		t.Fatal(err)
	}
	if added != 2 {
		t.Fatalf("added = %d, want 2", added)
	}
	biggest, err := p.Get("biggest").AsInt()
	if err != nil {
		t.Fatal(err)
	}
	if biggest != 90 {
		t.Fatalf("biggest = %d, want 90", biggest)
	}
	name, err := p.Get("name").AsString()
	if err != nil {
		t.Fatal(err)
	}
	if name != "minnow" {
		t.Fatalf("name = %q, want minnow", name)
	}
}

func TestUnknownDriver(t *testing.T) {
	if _, err := database.GetdB("NotADatabase", ""); err == nil {
		t.Fatal("unknown driver names should be rejected")
	}
}

func TestSortedDrivers(t *testing.T) {
	drivers := database.GetSortedDrivers()
	if len(drivers) == 0 {
		t.Fatal("no drivers registered")
	}
	for i := 1; i < len(drivers); i++ {
		if drivers[i-1] >= drivers[i] {
			t.Fatalf("driver list is not sorted: %v", drivers)
		}
	}
}
